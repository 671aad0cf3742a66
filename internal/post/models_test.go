package post

import (
	"testing"

	"backend-tripnick/internal/apperr"
)

func TestParseType(t *testing.T) {
	for _, raw := range []string{"community", "review", "list"} {
		typ, err := ParseType(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if string(typ) != raw {
			t.Fatalf("expected %q, got %q", raw, typ)
		}
	}

	for _, raw := range []string{"", "story", "Review", "COMMUNITY"} {
		if _, err := ParseType(raw); !apperr.IsKind(err, apperr.KindInvalidArgument) {
			t.Fatalf("expected invalid_argument for %q, got %v", raw, err)
		}
	}
}

func TestTitle(t *testing.T) {
	community := Post{Type: TypeCommunity, Community: &Community{Title: "Trip to Bahia"}}
	if community.Title() != "Trip to Bahia" {
		t.Fatalf("expected stored title for community post")
	}

	share := Post{Type: TypeList, List: &ListShare{Title: "My beaches"}}
	if share.Title() != "My beaches" {
		t.Fatalf("expected stored title for list post")
	}

	review := Post{Type: TypeReview, Review: &Review{SpotID: 7, SpotName: "Mirante da Urca"}}
	if review.Title() != "Mirante da Urca" {
		t.Fatalf("expected spot name for review post")
	}

	unloaded := Post{Type: TypeReview, Review: &Review{SpotID: 7}}
	if unloaded.Title() != "spot #7" {
		t.Fatalf("expected fallback title, got %q", unloaded.Title())
	}

	broken := Post{Type: TypeCommunity}
	if broken.Title() != "" {
		t.Fatalf("expected empty title when variant missing")
	}
}
