package scoring

import "testing"

func TestGetRecommendation(t *testing.T) {
	cases := []struct {
		score int
		gates int
		want  Recommendation
	}{
		{80, 4, RecommendProceed},
		{100, 4, RecommendProceed},
		{80, 3, RecommendReject},
		{95, 3, RecommendGatherData},
		{60, 2, RecommendGatherData},
		{79, 4, RecommendGatherData},
		{60, 1, RecommendReject},
		{59, 4, RecommendReject},
		{0, 0, RecommendReject},
		{100, 0, RecommendReject},
	}
	for _, tc := range cases {
		if got := GetRecommendation(tc.score, tc.gates); got != tc.want {
			t.Errorf("GetRecommendation(%d, %d): expected %s, got %s", tc.score, tc.gates, tc.want, got)
		}
	}
}

func TestGetRecommendationIdempotent(t *testing.T) {
	for i := 0; i < 3; i++ {
		if GetRecommendation(85, 4) != RecommendProceed {
			t.Fatal("expected stable proceed verdict")
		}
	}
}

func TestRecommendationValid(t *testing.T) {
	for _, r := range []Recommendation{RecommendProceed, RecommendGatherData, RecommendReject} {
		if !r.Valid() {
			t.Errorf("expected %q to be valid", r)
		}
	}
	if Recommendation("maybe").Valid() {
		t.Error("expected maybe to be invalid")
	}
}

func TestBandsAgreeWithGetRecommendation(t *testing.T) {
	for _, b := range Bands {
		if got := GetRecommendation(b.MinScore, b.MinGates); got != b.Recommendation {
			t.Errorf("band %s: GetRecommendation(%d, %d) = %s", b.Recommendation, b.MinScore, b.MinGates, got)
		}
	}
	if Bands[len(Bands)-1].Recommendation != RecommendReject {
		t.Error("expected reject as the final band")
	}
}
