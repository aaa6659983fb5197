// Package models defines the records dilutionwise keeps.
//
// Calculations are never stored: a dilution result lives only for the
// request that produced it. The only persisted record is Delivery, an
// audit trail of report emails (who, when, whether it worked).
package models
