package scoring

import "testing"

func TestComputeFrontierSingle(t *testing.T) {
	in := []Candidate{{ProductID: "a", Revenue: 1}}
	if got := ComputeFrontier(in); len(got) != 1 {
		t.Errorf("expected single candidate to be its own frontier, got %d", len(got))
	}
	if got := ComputeFrontier(nil); len(got) != 0 {
		t.Errorf("expected empty frontier, got %d", len(got))
	}
}

func TestComputeFrontierDominated(t *testing.T) {
	in := []Candidate{
		{ProductID: "strong", Revenue: 9000, Demand: 2000, Margin: 30, Competition: 20},
		{ProductID: "weak", Revenue: 5000, Demand: 1000, Margin: 20, Competition: 60},
	}
	got := ComputeFrontier(in)
	if len(got) != 1 || got[0].ProductID != "strong" {
		t.Errorf("expected only strong on frontier, got %+v", got)
	}
}

func TestComputeFrontierTradeoffs(t *testing.T) {
	in := []Candidate{
		{ProductID: "big", Revenue: 12000, Demand: 3000, Margin: 15, Competition: 80},
		{ProductID: "niche", Revenue: 4000, Demand: 800, Margin: 45, Competition: 10},
		{ProductID: "meh", Revenue: 3000, Demand: 700, Margin: 14, Competition: 85},
	}
	got := ComputeFrontier(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 frontier candidates, got %+v", got)
	}
	ids := map[string]bool{}
	for _, c := range got {
		ids[c.ProductID] = true
	}
	if !ids["big"] || !ids["niche"] {
		t.Errorf("expected big and niche on frontier, got %+v", got)
	}
}

func TestComputeFrontierEqualCandidates(t *testing.T) {
	in := []Candidate{
		{ProductID: "a", Revenue: 1, Demand: 1, Margin: 1, Competition: 1},
		{ProductID: "b", Revenue: 1, Demand: 1, Margin: 1, Competition: 1},
	}
	if got := ComputeFrontier(in); len(got) != 2 {
		t.Errorf("expected identical candidates to both survive, got %d", len(got))
	}
}

func TestCandidateFrom(t *testing.T) {
	c := CandidateFrom("p1", "Garlic press", referenceCriteria(), margin(28))
	if c.Revenue != 8000 || c.Demand != 1500 || c.Competition != 30 || c.Margin != 28 {
		t.Errorf("unexpected candidate projection: %+v", c)
	}
	if c.Score != 77 {
		t.Errorf("expected score 77, got %d", c.Score)
	}
	empty := CandidateFrom("p2", "", nil, nil)
	if empty.Revenue != MissingValue || empty.Margin != MissingValue {
		t.Errorf("expected missing values to read as zero, got %+v", empty)
	}
}
