// Package walker traverses a directory tree, hands every discovered git
// working tree to a repository processor, and recurses into declared
// submodules. Directories that are not working trees trigger a bounded
// search for nested repositories.
package walker
