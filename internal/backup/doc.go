// Package backup keeps snapshots of journal files.
//
// A snapshot is taken before a journal is handed to an external editor, so a
// bad edit can be undone. Each snapshot lives in its own directory:
//
//	<DataHome>/jrnl/backups/
//	└── {journal}/
//	    └── {timestamp}/
//	        ├── manifest.json
//	        └── journal.txt
//
// The manifest records the source path, permissions and a SHA256 of the
// copied contents, which [Manager.Restore] verifies before writing the file
// back. Only the newest [DefaultRetentionCount] snapshots per journal are kept.
package backup
