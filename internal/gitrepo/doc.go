// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager, the narrow capability surface treesync uses to
// stage, commit, and synchronize working trees: status and staged-change
// checks, stashing, committing, branch and upstream resolution, pulls in
// fast-forward and rebase modes, pushes with optional upstream publication,
// and submodule initialization and enumeration. Every capability is a direct
// invocation of the git binary through execshell.
package gitrepo
