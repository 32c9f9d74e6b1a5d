// Package syncer brings a single git working tree into a clean, synchronized
// state relative to its upstream: it offers to stash uncommitted changes,
// stages and commits local modifications, then fast-forwards or rebases onto
// the upstream and pushes. Destructive or ambiguous choices go through an
// operator prompt policy so interactive and scripted runs share one code path.
package syncer
