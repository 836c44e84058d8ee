// Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package conformance provides the arrowconv conformance suite: a table of
// cases that exercise every logical type of the bridge. Round-trip cases
// encode native values, check the physical column and decode them back;
// rejection cases check that type mismatches, unexpected nulls and invalid
// values fail the way the bridge promises.
//
// The entry points intended for external use are [Cases] and [Run]. The
// domain types [Status], [Celsius], [Tag] and [Payload] are exported because
// they serve as examples of named types bound by reflection and by
// [arrowconv.Register].
package conformance
