// Package board models the pair production board: the Pair record, the
// stage and type enums, the transition reducer, filtering and grouping, and
// the drag gesture controller. Everything here is pure; persistence and
// remote calls live in store, sync, and delivery.
package board
