package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestSlotRegistryAddSlot(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		label    string
		wantErr  error
		want     []string
	}{
		{
			name:  "addsToEmptyDate",
			label: "12:00 - 12:30",
			want:  []string{"12:00 - 12:30"},
		},
		{
			name:     "appendsAfterExisting",
			existing: []string{"11:30 - 12:00"},
			label:    "12:00 - 12:30",
			want:     []string{"11:30 - 12:00", "12:00 - 12:30"},
		},
		{
			name:     "trimsLabelBeforeStoring",
			existing: []string{},
			label:    "  12:00 - 12:30  ",
			want:     []string{"12:00 - 12:30"},
		},
		{
			name:     "rejectsDuplicate",
			existing: []string{"12:00 - 12:30"},
			label:    "12:00 - 12:30",
			wantErr:  ErrDuplicateSlot,
			want:     []string{"12:00 - 12:30"},
		},
		{
			name:    "rejectsEmptyLabel",
			label:   "",
			wantErr: ErrEmptySlotLabel,
		},
		{
			name:    "rejectsWhitespaceLabel",
			label:   "   ",
			wantErr: ErrEmptySlotLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewMockSlotRepo()
			if tt.existing != nil {
				if err := repo.PutSlots(ctx, "2026-09-01", tt.existing); err != nil {
					t.Fatalf("seed slots: %v", err)
				}
			}
			registry := NewSlotRegistry(repo, nil)

			err := registry.AddSlot(ctx, "2026-09-01", tt.label)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddSlot() error = %v, want %v", err, tt.wantErr)
			}

			got, err := registry.Slots(ctx, "2026-09-01")
			if err != nil {
				t.Fatalf("Slots() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Slots() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Slots()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSlotRegistryRemoveSlot(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		label    string
		want     []string
	}{
		{
			name:     "removesPresentLabel",
			existing: []string{"11:30 - 12:00", "12:00 - 12:30"},
			label:    "11:30 - 12:00",
			want:     []string{"12:00 - 12:30"},
		},
		{
			name:     "absentLabelIsNoOp",
			existing: []string{"11:30 - 12:00"},
			label:    "18:00 - 18:30",
			want:     []string{"11:30 - 12:00"},
		},
		{
			name:  "emptyDateIsNoOp",
			label: "12:00 - 12:30",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewMockSlotRepo()
			if tt.existing != nil {
				if err := repo.PutSlots(ctx, "2026-09-01", tt.existing); err != nil {
					t.Fatalf("seed slots: %v", err)
				}
			}
			registry := NewSlotRegistry(repo, nil)

			if err := registry.RemoveSlot(ctx, "2026-09-01", tt.label); err != nil {
				t.Fatalf("RemoveSlot() error = %v", err)
			}

			got, err := registry.Slots(ctx, "2026-09-01")
			if err != nil {
				t.Fatalf("Slots() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Slots() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Slots()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSlotRegistryRemoveSlotIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMockSlotRepo()
	registry := NewSlotRegistry(repo, nil)

	if err := registry.AddSlot(ctx, "2026-09-01", "12:00 - 12:30"); err != nil {
		t.Fatalf("AddSlot() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := registry.RemoveSlot(ctx, "2026-09-01", "12:00 - 12:30"); err != nil {
			t.Fatalf("RemoveSlot() pass %d error = %v", i+1, err)
		}
	}

	got, err := registry.Slots(ctx, "2026-09-01")
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Slots() = %v, want empty", got)
	}
}

func TestSlotRegistryRemoveSkipsWriteWhenAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewMockSlotRepo()
	writes := 0
	repo.PutSlotsFunc = func(ctx context.Context, date string, slots []string) error {
		writes++
		return nil
	}
	registry := NewSlotRegistry(repo, nil)

	if err := registry.RemoveSlot(ctx, "2026-09-01", "12:00 - 12:30"); err != nil {
		t.Fatalf("RemoveSlot() error = %v", err)
	}
	if writes != 0 {
		t.Errorf("RemoveSlot() wrote %d times for absent label, want 0", writes)
	}
}

func TestSlotRegistrySlotsEmptyDate(t *testing.T) {
	registry := NewSlotRegistry(NewMockSlotRepo(), nil)

	got, err := registry.Slots(context.Background(), "2026-09-01")
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Slots() = %v, want empty", got)
	}
}

func TestSlotRegistryOffers(t *testing.T) {
	ctx := context.Background()
	repo := NewMockSlotRepo()
	if err := repo.PutSlots(ctx, "2026-09-01", []string{"12:00 - 12:30"}); err != nil {
		t.Fatalf("seed slots: %v", err)
	}
	registry := NewSlotRegistry(repo, nil)

	tests := []struct {
		name  string
		date  string
		label string
		want  bool
	}{
		{name: "offeredLabel", date: "2026-09-01", label: "12:00 - 12:30", want: true},
		{name: "unknownLabel", date: "2026-09-01", label: "18:00 - 18:30", want: false},
		{name: "unknownDate", date: "2026-09-02", label: "12:00 - 12:30", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.Offers(ctx, tt.date, tt.label)
			if err != nil {
				t.Fatalf("Offers() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Offers(%q, %q) = %v, want %v", tt.date, tt.label, got, tt.want)
			}
		})
	}
}

func TestSlotRegistryWrapsRepoErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewMockSlotRepo()
	repo.GetSlotsFunc = func(ctx context.Context, date string) ([]string, error) {
		return nil, fmt.Errorf("connection reset")
	}
	registry := NewSlotRegistry(repo, nil)

	_, err := registry.Slots(ctx, "2026-09-01")
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("Slots() error = %v, want *PersistenceError", err)
	}
	if errors.Is(err, ErrDuplicateSlot) {
		t.Error("persistence failure must not read as a validation error")
	}
}

// Two interleaved read-modify-write sequences against the same date lose one
// of the writes. This pins down the documented last-writer-wins trade-off.
func TestSlotRegistryLastWriterWins(t *testing.T) {
	ctx := context.Background()
	repo := NewMockSlotRepo()
	registry := NewSlotRegistry(repo, nil)

	base, err := repo.GetSlots(ctx, "2026-09-01")
	if err != nil {
		t.Fatalf("GetSlots() error = %v", err)
	}

	// Writer A stores its view, then writer B stores a view derived from
	// the same stale read.
	if err := repo.PutSlots(ctx, "2026-09-01", append(append([]string{}, base...), "11:30 - 12:00")); err != nil {
		t.Fatalf("PutSlots() error = %v", err)
	}
	if err := repo.PutSlots(ctx, "2026-09-01", append(append([]string{}, base...), "12:00 - 12:30")); err != nil {
		t.Fatalf("PutSlots() error = %v", err)
	}

	got, err := registry.Slots(ctx, "2026-09-01")
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}
	if len(got) != 1 || got[0] != "12:00 - 12:30" {
		t.Errorf("Slots() = %v, want only the second writer's label", got)
	}
}
