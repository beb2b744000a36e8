package iocache

import (
	"fmt"

	"github.com/huangsam/docname/schema"
)

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Schema Version: %d\n", status.SchemaVersion)
	fmt.Printf("Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Last Entry: %s\n", status.LastEntryTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Entry: %s\n", status.OldestEntryTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintJournalStatus prints rename journal status information.
func PrintJournalStatus(status schema.JournalStatus) {
	fmt.Printf("Journal Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Renames: %d\n", status.TotalRenames)
	if status.TotalRenames > 0 {
		fmt.Printf("Last Rename: %s\n", status.LastRenameAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("First Rename: %s\n", status.FirstRenameAt.Format("2006-01-02 15:04:05"))
	}
}
