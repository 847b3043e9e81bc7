//go:build linux

package watcher

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Filesystem magic numbers from linux/magic.h. Compared as uint32 so the
// values fit regardless of the architecture-specific width of Statfs_t.Type.
const (
	nfsSuperMagic     uint32 = 0x6969
	smbSuperMagic     uint32 = 0x517B
	smb2SuperMagic    uint32 = 0xFE534D42
	cifsSuperMagic    uint32 = 0xFF534D42
	fuseSuperMagic    uint32 = 0x65735546
	ext4SuperMagic    uint32 = 0xEF53
	btrfsSuperMagic   uint32 = 0x9123683E
	xfsSuperMagic     uint32 = 0x58465342
	tmpfsSuperMagic   uint32 = 0x01021994
	overlaySuperMagic uint32 = 0x794C7630
	zfsSuperMagic     uint32 = 0x2FC12FC1
)

// DetectFilesystemType classifies the filesystem holding path using statfs.
// If the path does not exist yet, its nearest existing ancestor is probed.
func DetectFilesystemType(path string) FilesystemType {
	if path == "" {
		return FSTypeUnknown
	}

	probe := path
	for {
		if _, err := os.Stat(probe); err == nil {
			break
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			return FSTypeUnknown
		}
		probe = parent
	}

	var fs unix.Statfs_t
	if err := unix.Statfs(probe, &fs); err != nil {
		return FSTypeUnknown
	}

	switch uint32(fs.Type) {
	case nfsSuperMagic:
		return FSTypeNFS
	case smbSuperMagic, smb2SuperMagic, cifsSuperMagic:
		return FSTypeSMB
	case fuseSuperMagic:
		// sshfs mounts report the generic FUSE magic; both get polling.
		return FSTypeFUSE
	case ext4SuperMagic, btrfsSuperMagic, xfsSuperMagic, tmpfsSuperMagic, overlaySuperMagic, zfsSuperMagic:
		return FSTypeLocal
	default:
		return FSTypeUnknown
	}
}
