package fileid

import "testing"

func TestDocumentID(t *testing.T) {
	id1 := DocumentID("ho-so.pdf", 12345)
	id2 := DocumentID("ho-so.pdf", 12345)
	if id1 != id2 {
		t.Errorf("same name+size should give same ID: %q vs %q", id1, id2)
	}
	if len(id1) != idLength {
		t.Errorf("ID length = %d, want %d", len(id1), idLength)
	}
}

func TestDocumentID_distinguishes(t *testing.T) {
	base := DocumentID("ho-so.pdf", 12345)
	if DocumentID("ho-so-2.pdf", 12345) == base {
		t.Error("different names should give different IDs")
	}
	if DocumentID("ho-so.pdf", 12346) == base {
		t.Error("different sizes should give different IDs")
	}
}
