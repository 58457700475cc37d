// Package metrics defines and registers all custom Prometheus metrics for the
// restaurant protocol API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "restaurant_protocol"

// ── Gate and capability metrics ───────────────────────────────────────────────

// GateRejectionsTotal counts mutations refused because the protocol is locked.
// Label:
//   - operation: the entry point that hit the gate (e.g. "place_order")
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Total number of operations rejected by the protocol lock.",
	},
	[]string{"operation"},
)

// CapabilityDenialsTotal counts failed capability checks.
// Label:
//   - check: which authority check failed (e.g. "restaurant_admin")
var CapabilityDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "capability_denials_total",
		Help:      "Total number of failed capability checks, by check kind.",
	},
	[]string{"check"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersPlacedTotal counts orders placed, by restaurant.
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed.",
	},
	[]string{"restaurant"},
)

// OrderTransitionsTotal counts order status transitions.
// Labels:
//   - from, to: numeric status codes as strings
var OrderTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Total number of order status transitions.",
	},
	[]string{"from", "to"},
)

// ── Point economy metrics ─────────────────────────────────────────────────────

// PointsAccruedTotal counts reward points granted at order placement.
var PointsAccruedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "points_accrued_total",
		Help:      "Total reward points accrued on membership credentials.",
	},
	[]string{"restaurant"},
)

// PointsRedeemedTotal counts reward points spent on redemptions.
var PointsRedeemedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "points_redeemed_total",
		Help:      "Total reward points spent on reward redemptions.",
	},
	[]string{"restaurant"},
)

// RewardMintsTotal counts reward credential mints by trigger path.
// Label:
//   - path: "redeem" or "airdrop"
var RewardMintsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reward_mints_total",
		Help:      "Total reward credential tokens minted, by authorization path.",
	},
	[]string{"path"},
)

// EnrollmentsTotal counts customer enrollments.
var EnrollmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollments_total",
		Help:      "Total customer enrollments (membership credentials minted).",
	},
	[]string{"restaurant"},
)
