// Package journal reads and writes plain-text journal files.
//
// A journal file is a sequence of records. Each record starts with a title
// line holding a bracketed timestamp, and the lines up to the next title
// line form its body:
//
//	[2023-01-12 08:51:57 AM] Test entry.
//	This is a test entry about #work with @alice.
//
// Timestamps are written and read with the journal's strftime time format.
package journal
