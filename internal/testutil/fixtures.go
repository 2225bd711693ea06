package testutil

import (
	"testing"

	"github.com/atomicstack/navshell/internal/navtree"
)

// OrdersPayload has three sections; /orders/list owns two tabs and
// /orders/export owns none.
const OrdersPayload = `{
  "sections": {
    "Orders": [
      {"text": "List", "href": "/orders/list", "order": 1},
      {"text": "Export", "href": "/orders/export", "order": 2}
    ],
    "Billing": [
      {"text": "Invoices", "href": "/billing/invoices"},
      {"text": "Refunds", "href": "/billing/refunds"}
    ],
    "Audit": [
      {"text": "Log", "href": "/audit/log"}
    ]
  },
  "tabs": {
    "/orders/list": [
      {"key": "logs", "text": "Logs", "href": "/orders/list/logs", "order": 2},
      {"key": "summary", "text": "Summary", "href": "/orders/list/summary", "order": 1}
    ],
    "/billing/refunds/": [
      {"key": "open", "text": "Open", "href": "/billing/refunds/open"}
    ]
  }
}`

// OrdersWithoutLogsPayload is OrdersPayload after /orders/list/logs was
// removed upstream.
const OrdersWithoutLogsPayload = `{
  "sections": {
    "Orders": [
      {"text": "List", "href": "/orders/list", "order": 1},
      {"text": "Export", "href": "/orders/export", "order": 2}
    ],
    "Billing": [
      {"text": "Invoices", "href": "/billing/invoices"}
    ]
  },
  "tabs": {
    "/orders/list": [
      {"key": "summary", "text": "Summary", "href": "/orders/list/summary"}
    ]
  }
}`

// Tree parses payload and fails the test when it does not decode.
func Tree(t testing.TB, payload string) *navtree.Model {
	t.Helper()
	m, err := navtree.ParseBytes([]byte(payload))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return m
}
