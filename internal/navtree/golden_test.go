package navtree_test

import (
	"testing"

	"github.com/atomicstack/navshell/internal/testutil"
)

func TestFixtureTreesMatchGolden(t *testing.T) {
	cases := []struct {
		golden  string
		payload string
	}{
		{"orders.golden", testutil.OrdersPayload},
		{"orders_without_logs.golden", testutil.OrdersWithoutLogsPayload},
	}
	for _, tc := range cases {
		t.Run(tc.golden, func(t *testing.T) {
			testutil.AssertGolden(t, tc.golden, testutil.DumpTree(testutil.Tree(t, tc.payload)))
		})
	}
}
