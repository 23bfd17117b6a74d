// Package model contains the domain entities of the approval engine:
// users, groups, accounts, requests with their typed operations, approval
// rules and policies, transfers and notifications.
//
// Entities are plain serialisable structs with JSON and YAML tags. Each
// mutable entity exposes Validate for structural bounds and Clone for owned
// deep copies, so repositories never leak shared state to callers.
package model
