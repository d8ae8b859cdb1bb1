package projections

import (
	"context"
	"testing"

	"autokudos/internal/domain/result"
)

func TestQueryGetPBs(t *testing.T) {
	res, err := QueryGetPBs(context.Background(), " Jane Doe ", clubResults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.PBs) != 2 {
		t.Fatalf("pbs=%+v", res.PBs)
	}
	if res.PBs[0].Distance != result.Distance5K || res.PBs[0].TimeDisplay != "00:21:30" {
		t.Errorf("5k pb=%+v", res.PBs[0])
	}
	if res.PBs[1].Distance != result.DistanceMarathon {
		t.Errorf("second pb=%+v", res.PBs[1])
	}

	none, err := QueryGetPBs(context.Background(), "jane doe", clubResults())
	if err != nil || len(none.PBs) != 0 {
		t.Errorf("name match is exact: %+v, %v", none, err)
	}
}
