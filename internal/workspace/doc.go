// Package workspace manages the directory a content repository is checked out
// into.
//
// A persistent workspace lives at a fixed path and survives across runs so
// later syncs only fetch new commits. An ephemeral workspace is a fresh
// temporary directory removed by Cleanup.
package workspace
