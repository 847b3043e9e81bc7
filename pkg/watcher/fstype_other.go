//go:build !linux

package watcher

// DetectFilesystemType has no statfs-based classification outside Linux.
// Unknown keeps fsnotify active unless polling is forced explicitly.
func DetectFilesystemType(path string) FilesystemType {
	return FSTypeUnknown
}
