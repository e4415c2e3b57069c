package lexstat

import (
	"reflect"
	"testing"
)

func buildTwoClusterMatrix() *DistanceMatrix {
	// items 0,1 close; item 2 far from both.
	dm := NewDistanceMatrix(3)
	dm.Set(0, 1, 0.05)
	dm.Set(0, 2, 0.9)
	dm.Set(1, 2, 0.9)
	return dm
}

func TestUPGMAFlatMergesCloseItems(t *testing.T) {
	dm := buildTwoClusterMatrix()
	labels := UPGMAFlat(dm, 0.3)
	if labels[0] != labels[1] {
		t.Fatalf("expected items 0,1 in the same cluster, got %v", labels)
	}
	if labels[2] == labels[0] {
		t.Fatalf("expected item 2 in a distinct cluster, got %v", labels)
	}
}

func TestUPGMAFlatThresholdZeroKeepsSingletons(t *testing.T) {
	dm := buildTwoClusterMatrix()
	labels := UPGMAFlat(dm, 0)
	distinct := map[int]bool{}
	for _, l := range labels {
		distinct[l] = true
	}
	if len(distinct) != 3 {
		t.Fatalf("expected 3 singleton clusters at threshold 0, got %v", labels)
	}
}

func TestOffsetClustersShiftsAndReturnsNewMax(t *testing.T) {
	shifted, newMax := OffsetClusters([]int{0, 0, 1}, 5)
	if !reflect.DeepEqual(shifted, []int{5, 5, 6}) {
		t.Fatalf("shifted = %v, want [5 5 6]", shifted)
	}
	if newMax != 7 {
		t.Fatalf("newMax = %d, want 7", newMax)
	}
}

func TestSingleLinkFlatAndCompleteLinkFlatAgreeOnClearCase(t *testing.T) {
	dm := buildTwoClusterMatrix()
	single := SingleLinkFlat(dm, 0.3)
	complete := CompleteLinkFlat(dm, 0.3)
	if single[0] != single[1] || complete[0] != complete[1] {
		t.Fatalf("expected both linkage methods to merge items 0,1: single=%v complete=%v", single, complete)
	}
}
