// SPDX-License-Identifier: MPL-2.0

// Package ctyval bridges confval.Value and the cty dynamic values used by
// the HCL ecosystem.
//
// The two models almost line up. cty has a single arbitrary-precision
// number type, so the int/float split is decided by value when converting
// to confval: whole numbers that fit the int payload become ints and
// everything else becomes a float. A confval float that happens to be
// whole therefore reads back as an int. cty additionally has unknown
// values and NaN-free numbers; unknowns are rejected when converting to
// confval and NaN is rejected when converting to cty, both as
// ConversionErrors carrying the offending path.
package ctyval
