package sqlitedb

// The structs below mirror Anki's on-disk layout column for column. The
// collection file is shared with the Anki application itself, so nothing
// here may be renamed, reordered or widened.

// Note is one row of the notes table. Fields holds the 0x1f-separated
// field blob, Tags the space-separated tag blob.
type Note struct {
	ID        int64
	GUID      string
	ModelID   int64  // mid
	Mod       int64
	USN       int64
	Tags      string
	Fields    string // flds
	SortField string // sfld
	Checksum  int64  // csum
	Flags     int64
	Data      string
}

// Card is one row of the cards table.
type Card struct {
	ID         int64
	NoteID     int64 // nid
	DeckID     int64 // did
	Ord        int64
	Mod        int64
	USN        int64
	Type       int64
	Queue      int64
	Due        int64
	Interval   int64 // ivl
	Factor     int64
	Reps       int64
	Lapses     int64
	Left       int64
	OrigDue    int64 // odue
	OrigDeckID int64 // odid
	Flags      int64
	Data       string
}

// Review is one row of the revlog table. The row ID doubles as the epoch
// millisecond timestamp of the review.
type Review struct {
	ID           int64
	CardID       int64 // cid
	USN          int64
	Ease         int64
	Interval     int64 // ivl
	LastInterval int64 // lastIvl
	Factor       int64
	TakenMS      int64 // time
	Type         int64
}

// Meta is the single row of the col table. Models, Decks and DeckConfs
// hold JSON blobs keyed by ID.
type Meta struct {
	ID        int64
	Created   int64 // crt
	Mod       int64
	SchemaMod int64 // scm
	Version   int64 // ver
	Dirty     int64 // dty
	USN       int64
	LastSync  int64 // ls
	Conf      string
	Models    string
	Decks     string
	DeckConfs string // dconf
	Tags      string
}
