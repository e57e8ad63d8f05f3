package outfit

import (
	"testing"

	"server/internal/domain"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		category string
		intake   domain.Intake
		want     string
	}{
		{
			name:     "full intake",
			category: "outer",
			intake: domain.Intake{
				Gender:         "man",
				Styles:         []string{"klassiek", "minimalistisch"},
				FavoriteColors: []string{"navy", "white"},
			},
			want: "men klassiek minimalistisch jacket blazer overshirt coat navy white",
		},
		{
			name:     "styles default to casual",
			category: "shoes",
			intake:   domain.Intake{Gender: "vrouw"},
			want:     "women casual sneakers shoes",
		},
		{
			name:     "gender aliases tolerated",
			category: "tee",
			intake:   domain.Intake{Gender: "MALE", Styles: []string{"sportief"}},
			want:     "men sportief t-shirt tee",
		},
		{
			name:     "unknown gender omitted",
			category: "bottom",
			intake:   domain.Intake{Gender: "unisex", Styles: []string{"casual"}},
			want:     "casual chino trousers jeans",
		},
		{
			name:     "styles capped at two",
			category: "top1",
			intake:   domain.Intake{Styles: []string{"casual", "klassiek", "creatief"}},
			want:     "casual klassiek shirt knit sweater",
		},
		{
			name:     "colors capped at three",
			category: "accessory",
			intake: domain.Intake{
				Styles:         []string{"casual"},
				FavoriteColors: []string{"navy", "white", "grey", "red"},
			},
			want: "casual belt scarf navy white grey",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildQuery(tc.category, tc.intake)
			if got != tc.want {
				t.Fatalf("BuildQuery(%s) = %q, want %q", tc.category, got, tc.want)
			}
		})
	}
}

func TestBuildQueryDeterministic(t *testing.T) {
	intake := domain.Intake{
		Gender:         "man",
		Styles:         []string{"casual"},
		FavoriteColors: []string{"navy"},
	}
	first := BuildQuery("outer", intake)
	for i := 0; i < 10; i++ {
		if got := BuildQuery("outer", intake); got != first {
			t.Fatalf("BuildQuery not deterministic: %q vs %q", got, first)
		}
	}
}
