// Package rowset provides an in-memory tabular row store with filtering,
// stable multi-column sorting, pagination and bidirectional cursors.
//
// Overview
//
// Rows are open field maps held by a RowStore. Cursors accumulate rules and
// iterate a View, a filtered and sorted projection of the store:
//   - FilterRules: AND of rules, each rule an OR over its fields, comparators
//     and values. Built-in Operators follow loose JavaScript-style comparison;
//     MatchFunc plugs in custom predicates.
//   - SortRules: applied to the store in order. Each sort is stable, so later
//     rules take precedence and earlier ones break ties.
//   - PaginationRule: restricts Next and Prev to one page of the view.
//
// Key concepts
//   - RowStore: owns the rows and their position tags, validates inserted
//     rows against an optional SchemaValidator.
//   - Cursor: Execute, Next, Prev, Current and Remove over its private View.
//     Removal deletes the row from the store as well.
//   - PageToken: opaque page reference for APIs, decoded by RawPagination.
//   - GORMSource: loads rows from a database, pushing rules down into SQL.
//
// A store and its cursors are not safe for concurrent use.
package rowset
