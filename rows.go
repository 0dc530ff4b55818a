package ankitab

import (
	"github.com/conorfennell/ankitab/internal/sqlitedb"
)

// CardQueue is the scheduling queue a card sits in.
type CardQueue int64

const (
	QueueSchedBuried CardQueue = -3
	QueueUserBuried  CardQueue = -2
	QueueSuspended   CardQueue = -1
	QueueNew         CardQueue = 0
	QueueLearning    CardQueue = 1
	QueueDue         CardQueue = 2
	QueueInLearning  CardQueue = 3
)

func (q CardQueue) String() string {
	switch q {
	case QueueSchedBuried:
		return "sched buried"
	case QueueUserBuried:
		return "user buried"
	case QueueSuspended:
		return "suspended"
	case QueueNew:
		return "new"
	case QueueLearning:
		return "learning"
	case QueueDue:
		return "due"
	case QueueInLearning:
		return "in learning"
	}
	return "unknown"
}

// CardType is the lifecycle stage of a card. ReviewType uses the same
// codes for revlog rows.
type CardType int64

const (
	CardTypeLearning CardType = 0
	CardTypeReview   CardType = 1
	CardTypeRelearn  CardType = 2
	CardTypeCram     CardType = 3
)

func (t CardType) String() string {
	switch t {
	case CardTypeLearning:
		return "learning"
	case CardTypeReview:
		return "review"
	case CardTypeRelearn:
		return "relearn"
	case CardTypeCram:
		return "cram"
	}
	return "unknown"
}

// ReviewType mirrors CardType for revlog rows.
type ReviewType = CardType

// NoteRow is the working representation of one note. Fields and Tags are
// the unpacked forms of the persisted blobs; they are re-packed through
// the codec for diffing and writing, so the blobs stay the single source
// of truth. The sort field and checksum are recomputed at write time.
type NoteRow struct {
	ID      int64
	GUID    string
	ModelID int64
	Mod     int64
	USN     int64
	Tags    []string
	Fields  []string
	Flags   int64
	Data    string
}

func noteFromRaw(r sqlitedb.Note) *NoteRow {
	return &NoteRow{
		ID:      r.ID,
		GUID:    r.GUID,
		ModelID: r.ModelID,
		Mod:     r.Mod,
		USN:     r.USN,
		Tags:    UnpackTags(r.Tags),
		Fields:  UnpackFields(r.Fields),
		Flags:   r.Flags,
		Data:    r.Data,
	}
}

// toRaw folds the unpacked fields and tags back into blob form. SortField
// and Checksum are left zero; the write path fills them in.
func (n *NoteRow) toRaw() sqlitedb.Note {
	return sqlitedb.Note{
		ID:      n.ID,
		GUID:    n.GUID,
		ModelID: n.ModelID,
		Mod:     n.Mod,
		USN:     n.USN,
		Tags:    PackTags(n.Tags),
		Fields:  PackFields(n.Fields),
		Flags:   n.Flags,
		Data:    n.Data,
	}
}

// CardRow is the working representation of one card. All columns are
// native; the parent note's fields become available as derived columns
// after CardTable.MergeNoteFields.
type CardRow struct {
	ID         int64
	NoteID     int64
	DeckID     int64
	Ord        int64
	Mod        int64
	USN        int64
	Type       CardType
	Queue      CardQueue
	Due        int64
	Interval   int64
	Factor     int64
	Reps       int64
	Lapses     int64
	Left       int64
	OrigDue    int64
	OrigDeckID int64
	Flags      int64
	Data       string
}

func cardFromRaw(r sqlitedb.Card) *CardRow {
	return &CardRow{
		ID:         r.ID,
		NoteID:     r.NoteID,
		DeckID:     r.DeckID,
		Ord:        r.Ord,
		Mod:        r.Mod,
		USN:        r.USN,
		Type:       CardType(r.Type),
		Queue:      CardQueue(r.Queue),
		Due:        r.Due,
		Interval:   r.Interval,
		Factor:     r.Factor,
		Reps:       r.Reps,
		Lapses:     r.Lapses,
		Left:       r.Left,
		OrigDue:    r.OrigDue,
		OrigDeckID: r.OrigDeckID,
		Flags:      r.Flags,
		Data:       r.Data,
	}
}

func (c *CardRow) toRaw() sqlitedb.Card {
	return sqlitedb.Card{
		ID:         c.ID,
		NoteID:     c.NoteID,
		DeckID:     c.DeckID,
		Ord:        c.Ord,
		Mod:        c.Mod,
		USN:        c.USN,
		Type:       int64(c.Type),
		Queue:      int64(c.Queue),
		Due:        c.Due,
		Interval:   c.Interval,
		Factor:     c.Factor,
		Reps:       c.Reps,
		Lapses:     c.Lapses,
		Left:       c.Left,
		OrigDue:    c.OrigDue,
		OrigDeckID: c.OrigDeckID,
		Flags:      c.Flags,
		Data:       c.Data,
	}
}

// ReviewRow is the working representation of one revlog entry. The ID is
// the epoch millisecond timestamp of the review.
type ReviewRow struct {
	ID           int64
	CardID       int64
	USN          int64
	Ease         int64
	Interval     int64
	LastInterval int64
	Factor       int64
	TakenMS      int64
	Type         ReviewType
}

func reviewFromRaw(r sqlitedb.Review) *ReviewRow {
	return &ReviewRow{
		ID:           r.ID,
		CardID:       r.CardID,
		USN:          r.USN,
		Ease:         r.Ease,
		Interval:     r.Interval,
		LastInterval: r.LastInterval,
		Factor:       r.Factor,
		TakenMS:      r.TakenMS,
		Type:         ReviewType(r.Type),
	}
}

func (r *ReviewRow) toRaw() sqlitedb.Review {
	return sqlitedb.Review{
		ID:           r.ID,
		CardID:       r.CardID,
		USN:          r.USN,
		Ease:         r.Ease,
		Interval:     r.Interval,
		LastInterval: r.LastInterval,
		Factor:       r.Factor,
		TakenMS:      r.TakenMS,
		Type:         int64(r.Type),
	}
}
