package history

import (
	"sort"

	"github.com/diogo/dualchat/internal/models"
)

// Merge combines two conversation collections into one, restoring id
// uniqueness. Existing is processed first, then incoming. On an id collision
// the side with the later-or-equal parseable updatedAt wins and replaces the
// other wholesale; if either timestamp fails to parse, the side with the
// longer message list wins instead.
//
// This is last-writer-wins: the loser is discarded even if it carries
// messages the winner lacks. Two independently edited histories of the same
// id are treated as full replacements, not appendable logs.
//
// The result is sorted by updatedAt descending, ties broken by input order.
func Merge(existing, incoming []*models.Conversation) []*models.Conversation {
	byID := make(map[string]*models.Conversation)
	arrival := make(map[string]int)
	seq := 0

	put := func(c *models.Conversation) {
		if c == nil {
			return
		}
		current, ok := byID[c.ID]
		if !ok {
			byID[c.ID] = c
			arrival[c.ID] = seq
			seq++
			return
		}

		tNew, newOK := models.ParseTime(c.UpdatedAt)
		tCur, curOK := models.ParseTime(current.UpdatedAt)
		if newOK && curOK {
			if !tNew.Before(tCur) {
				byID[c.ID] = c
			}
			return
		}

		// Fallback heuristic when either timestamp is unparseable
		if len(c.Messages) >= len(current.Messages) {
			byID[c.ID] = c
		}
	}

	for _, c := range existing {
		put(c)
	}
	for _, c := range incoming {
		put(c)
	}

	merged := make([]*models.Conversation, 0, len(byID))
	for id := range byID {
		merged = append(merged, byID[id])
	}

	// Restore input order first so the recency sort breaks ties stably.
	sort.SliceStable(merged, func(i, j int) bool {
		return arrival[merged[i].ID] < arrival[merged[j].ID]
	})
	SortByRecency(merged)

	return merged
}

// SortByRecency sorts conversations by updatedAt descending, in place.
// Unparseable timestamps sort last; equal timestamps keep their order.
func SortByRecency(convs []*models.Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		ti, iOK := models.ParseTime(convs[i].UpdatedAt)
		tj, jOK := models.ParseTime(convs[j].UpdatedAt)
		switch {
		case iOK && jOK:
			return ti.After(tj)
		case iOK:
			return true
		default:
			return false
		}
	})
}
