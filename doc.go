// Package main provides the entry point for the ldapuser command-line client.
// It manages posix user and group entries in an LDAP directory: creating,
// updating, deleting and inspecting accounts, allocating collision-free
// uid/gid numbers, encoding SSHA passwords and keeping group membership
// in sync with the per-user group list.
package main
