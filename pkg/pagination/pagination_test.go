package pagination

import "testing"

func TestNew_Defaults(t *testing.T) {
	p := New(0, 0)
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected default offset 0, got %d", p.Offset)
	}
}

func TestNew_MaxLimit(t *testing.T) {
	p := New(500, 0)
	if p.Limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
}

func TestNew_NegativeOffset(t *testing.T) {
	p := New(10, -3)
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestPage_Window(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	got, total := Page(items, Params{Limit: 2, Offset: 1})
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("unexpected page: %v", got)
	}
}

func TestPage_TailShorterThanLimit(t *testing.T) {
	items := []string{"a", "b", "c"}
	got, _ := Page(items, Params{Limit: 10, Offset: 2})
	if len(got) != 1 || got[0] != "c" {
		t.Errorf("unexpected page: %v", got)
	}
}

func TestPage_OffsetPastEnd(t *testing.T) {
	got, total := Page([]int{1, 2}, Params{Limit: 5, Offset: 9})
	if len(got) != 0 {
		t.Errorf("expected empty page, got %v", got)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
}

func TestPage_ReturnsCopy(t *testing.T) {
	items := []int{1, 2, 3}
	got, _ := Page(items, Params{Limit: 3})
	got[0] = 99
	if items[0] != 1 {
		t.Error("Page must not alias the input slice")
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	r := NewResponse([]int{1}, 10, 5, 0)
	if !r.HasMore {
		t.Error("expected HasMore=true")
	}
	r = NewResponse([]int{1}, 10, 5, 5)
	if r.HasMore {
		t.Error("expected HasMore=false on last page")
	}
}
