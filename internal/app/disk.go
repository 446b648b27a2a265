package app

import "syscall"

type diskStats struct {
	TotalBytes     uint64 `json:"total_bytes"`
	UsedBytes      uint64 `json:"used_bytes"`
	AvailableBytes uint64 `json:"available_bytes"`
}

// diskUsage reports usage of the filesystem holding the data root, where
// the element catalog cache lives. Returns nil when the path cannot be
// statted, e.g. before the data root is created.
func diskUsage(path string) *diskStats {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return nil
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return &diskStats{
		TotalBytes:     total,
		UsedBytes:      total - stat.Bfree*uint64(stat.Bsize),
		AvailableBytes: free,
	}
}
