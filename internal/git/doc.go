// Package git keeps a local checkout of a content repository in sync with
// its remote.
//
// The first Sync clones (optionally shallow and single branch). Later calls
// fetch and move the local branch to the remote head. The checkout is treated
// as a read-only mirror, so a diverged local branch is reset to the remote.
package git
