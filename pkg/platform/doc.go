// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes the runtime.GOOS names used when resolving
// platform-specific paths, so comparisons do not scatter string literals.
package platform
