package history

import (
	"testing"

	"github.com/diogo/dualchat/internal/models"
)

func conv(id, updatedAt string, messageCount int) *models.Conversation {
	msgs := make([]models.StoredMessage, messageCount)
	for i := range msgs {
		msgs[i] = models.StoredMessage{
			ID:        models.NewMessageID(),
			Sender:    models.SenderUser,
			Purpose:   models.PurposeDiscussion,
			Timestamp: updatedAt,
		}
	}
	return &models.Conversation{
		ID:        id,
		Title:     "Conv " + id,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
		Messages:  msgs,
	}
}

func TestMerge_DisjointIDs(t *testing.T) {
	a := []*models.Conversation{conv("a", "2024-01-02T00:00:00Z", 1)}
	b := []*models.Conversation{conv("b", "2024-01-01T00:00:00Z", 2)}

	merged := Merge(a, b)
	if len(merged) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(merged))
	}

	// Recency first
	if merged[0].ID != "a" || merged[1].ID != "b" {
		t.Errorf("order = [%s %s], want [a b]", merged[0].ID, merged[1].ID)
	}
}

func TestMerge_CommutativeForDisjointIDs(t *testing.T) {
	a := []*models.Conversation{conv("a", "2024-01-02T00:00:00Z", 1)}
	b := []*models.Conversation{conv("b", "2024-01-01T00:00:00Z", 2)}

	ab := Merge(a, b)
	ba := Merge(b, a)

	if len(ab) != len(ba) {
		t.Fatalf("merge sizes differ: %d vs %d", len(ab), len(ba))
	}
	for i := range ab {
		if ab[i].ID != ba[i].ID {
			t.Errorf("position %d: %s vs %s", i, ab[i].ID, ba[i].ID)
		}
	}
}

func TestMerge_CollisionLaterUpdatedAtWins(t *testing.T) {
	existing := []*models.Conversation{conv("x", "2024-01-01T00:00:00Z", 1)}
	incoming := []*models.Conversation{conv("x", "2024-06-01T00:00:00Z", 2)}

	merged := Merge(existing, incoming)
	if len(merged) != 1 {
		t.Fatalf("expected exactly one conversation, got %d", len(merged))
	}
	if merged[0].UpdatedAt != "2024-06-01T00:00:00Z" {
		t.Errorf("winner UpdatedAt = %s, want the later one", merged[0].UpdatedAt)
	}
	if len(merged[0].Messages) != 2 {
		t.Errorf("winner should be the incoming record with 2 messages, got %d", len(merged[0].Messages))
	}
}

func TestMerge_CollisionEqualTimestampIncomingWins(t *testing.T) {
	existing := []*models.Conversation{conv("x", "2024-01-01T00:00:00Z", 1)}
	incoming := []*models.Conversation{conv("x", "2024-01-01T00:00:00Z", 3)}

	merged := Merge(existing, incoming)
	if len(merged) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(merged))
	}
	// Later-or-equal wins, so the incoming record replaces the existing one
	if len(merged[0].Messages) != 3 {
		t.Errorf("incoming should win on equal timestamps, got %d messages", len(merged[0].Messages))
	}
}

func TestMerge_CollisionReplacementIsTotal(t *testing.T) {
	loser := conv("x", "2024-01-01T00:00:00Z", 5)
	loser.Notepad = "unique notepad content the winner lacks"
	winner := conv("x", "2024-06-01T00:00:00Z", 1)

	merged := Merge([]*models.Conversation{loser}, []*models.Conversation{winner})
	if merged[0].Notepad != "" {
		t.Error("replacement must be total; loser fields must not leak into the winner")
	}
	if len(merged[0].Messages) != 1 {
		t.Errorf("messages = %d, want the winner's 1", len(merged[0].Messages))
	}
}

func TestMerge_UnparseableTimestampFallsBackToMessageCount(t *testing.T) {
	existing := []*models.Conversation{conv("x", "not-a-date", 4)}
	incoming := []*models.Conversation{conv("x", "2024-06-01T00:00:00Z", 1)}

	merged := Merge(existing, incoming)
	if len(merged) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(merged))
	}
	if len(merged[0].Messages) != 4 {
		t.Errorf("longer message list should win the fallback, got %d messages", len(merged[0].Messages))
	}
}

func TestMerge_BothUnparseableLongerListWins(t *testing.T) {
	existing := []*models.Conversation{conv("x", "garbage", 1)}
	incoming := []*models.Conversation{conv("x", "also-garbage", 2)}

	merged := Merge(existing, incoming)
	if len(merged[0].Messages) != 2 {
		t.Errorf("fallback should pick the longer list, got %d messages", len(merged[0].Messages))
	}
}

func TestMerge_SortsByUpdatedAtDescending(t *testing.T) {
	a := []*models.Conversation{
		conv("old", "2023-01-01T00:00:00Z", 0),
		conv("new", "2025-01-01T00:00:00Z", 0),
	}
	b := []*models.Conversation{conv("mid", "2024-01-01T00:00:00Z", 0)}

	merged := Merge(a, b)
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if merged[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, merged[i].ID, id)
		}
	}
}

func TestMerge_UnparseableSortLast(t *testing.T) {
	merged := Merge(
		[]*models.Conversation{conv("bad", "???", 0)},
		[]*models.Conversation{conv("good", "2024-01-01T00:00:00Z", 0)},
	)

	if merged[0].ID != "good" || merged[1].ID != "bad" {
		t.Errorf("order = [%s %s], want parseable timestamps first", merged[0].ID, merged[1].ID)
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	if got := Merge(nil, nil); len(got) != 0 {
		t.Errorf("merge of nothing should be empty, got %d", len(got))
	}

	one := []*models.Conversation{conv("a", "2024-01-01T00:00:00Z", 0)}
	if got := Merge(one, nil); len(got) != 1 {
		t.Errorf("expected 1 conversation, got %d", len(got))
	}
	if got := Merge(nil, one); len(got) != 1 {
		t.Errorf("expected 1 conversation, got %d", len(got))
	}
}
