// Package resolver orders extensions for execution.
//
// Resolution walks registry dependency edges depth-first and emits a
// post-order: every dependency appears before its dependents. The order is
// deterministic for a given registry and request, driven by declared
// dependency order and requested root order.
package resolver
