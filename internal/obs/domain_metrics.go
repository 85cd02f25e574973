package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersCreatedTotal counts order creation outcomes.
	OrdersCreatedTotal *prometheus.CounterVec
	// OrderStatusChangesTotal counts status transitions by target status.
	OrderStatusChangesTotal *prometheus.CounterVec
	// LinesPricedTotal counts line pricing computations by outcome.
	LinesPricedTotal *prometheus.CounterVec
	// PriceListCacheTotal counts price-list cache lookups by result.
	PriceListCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Count of order creation attempts by result.",
		}, []string{"result"})
		OrderStatusChangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Count of order status transitions by target status.",
		}, []string{"status"})
		LinesPricedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_priced_total",
			Help:      "Count of line pricing computations by result.",
		}, []string{"result"})
		PriceListCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricelist_cache_total",
			Help:      "Price-list cache lookups by result.",
		}, []string{"result"})

		mustRegisterCollector(reg, OrdersCreatedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OrdersCreatedTotal = v
			}
		})
		mustRegisterCollector(reg, OrderStatusChangesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OrderStatusChangesTotal = v
			}
		})
		mustRegisterCollector(reg, LinesPricedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				LinesPricedTotal = v
			}
		})
		mustRegisterCollector(reg, PriceListCacheTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PriceListCacheTotal = v
			}
		})
	})
}

// ObserveOrderCreated records an order creation outcome.
func ObserveOrderCreated(result string) { incCounter(OrdersCreatedTotal, result) }

// ObserveStatusChange records an order status transition.
func ObserveStatusChange(status string) { incCounter(OrderStatusChangesTotal, status) }

// ObserveLinePriced records a line pricing outcome.
func ObserveLinePriced(result string) { incCounter(LinesPricedTotal, result) }

// ObservePriceListCache records a price-list cache lookup result.
func ObservePriceListCache(result string) { incCounter(PriceListCacheTotal, result) }

func incCounter(vec *prometheus.CounterVec, label string) {
	if vec == nil {
		return
	}
	vec.WithLabelValues(label).Inc()
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
