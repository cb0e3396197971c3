// Package models defines the core domain models for splitledger.
//
// # Models
//
//   - User: registered account, identified by phone number
//   - Group: a set of users who share expenses
//   - Expense: a shared payment split evenly across group members
//   - Settlement: a suggested or executed repayment between two members
//
// # Money
//
// All monetary amounts are decimal.Decimal values in a single currency.
// Float arithmetic is never used for money; amounts are rounded to two
// decimal places only when a settlement transfer is emitted.
//
// # Dates
//
// Expenses and settlements are scoped to a calendar day. Day values are
// plain "YYYY-MM-DD" strings (see DayOf) so that scope comparisons are
// exact and free of timezone arithmetic.
//
// # Design Principles
//
//  1. Models carry no behavior beyond small helpers; business rules live in
//     the service and ledger packages.
//  2. Relationships use ID strings instead of pointers to avoid circular
//     references.
//  3. Expenses are soft-deleted (IsActive) so that settlement history stays
//     auditable.
package models
