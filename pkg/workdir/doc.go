// Package workdir reports how the working tree differs from the staging
// index and the HEAD commit.
//
// A path is tracked when it is staged or recorded in HEAD. Tracked paths
// are compared by content digest. An untracked path is reported only when
// its content has never been stored, so files identical to something
// already committed do not show up as new.
package workdir
