package accounts

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// loadSSHKey reads the first line of the given public key file. An empty
// path yields the sentinel value.
func loadSSHKey(path string) (string, error) {
	if path == "" {
		return noneValue, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "can't open ssh key file %q", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err = scanner.Err(); err != nil {
			return "", errors.Wrapf(err, "can't read ssh key file %q", path)
		}

		return "", errors.Errorf("ssh key file %q is empty", path)
	}

	return strings.TrimSpace(scanner.Text()), nil
}

// loadHosts expands the operator's host arguments: a value that looks like
// a file path is read line by line, a comma-separated value is split, and
// an empty list becomes the sentinel value.
func loadHosts(hosts []string) ([]string, error) {
	if len(hosts) == 0 {
		return []string{noneValue}, nil
	}

	var out []string

	for _, h := range hosts {
		switch {
		case strings.HasPrefix(h, "/") || strings.HasPrefix(h, "./"):
			fromFile, err := readLines(h)
			if err != nil {
				return nil, err
			}

			out = append(out, fromFile...)
		case strings.Contains(h, ","):
			for _, part := range strings.Split(h, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		case h != "":
			out = append(out, h)
		}
	}

	if len(out) == 0 {
		return []string{noneValue}, nil
	}

	return out, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open host file %q", path)
	}
	defer f.Close()

	var lines []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r\n "); line != "" {
			lines = append(lines, line)
		}
	}

	if err = scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read host file %q", path)
	}

	return lines, nil
}
