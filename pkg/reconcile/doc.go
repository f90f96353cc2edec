// Package reconcile merges live room records from the maintenance backend onto
// a generated floor layout.
//
// The generated layout carries defaults for every room. A backend may know
// about some of those rooms, identify them by a different key, or spell their
// names differently. [Reconcile] pairs records with rooms using a fixed
// precedence of keys:
//
//  1. record id equals room id
//  2. record room_id equals room id
//  3. record room_number equals room number
//  4. record name (or room_name) equals room name, ignoring case
//
// Precedence is global: every id match is made before any room_id match is
// considered, and so on. A record is applied to at most one room and a room
// receives at most one record. Geometry and room kind are never changed.
//
// [Compute] folds a room set into [Stats]; [MarkPending] applies the local
// effect of a request that could not be confirmed by the backend.
package reconcile
