// Package res loads Android-style resource directories into typed indices.
//
// A [PackageLoader] walks one resource root in a fixed phase order:
//
//  1. values     bool, color, dimen, integer, integer-array, plurals,
//     string, string-array and attr declarations
//  2. layout
//  3. menu
//  4. drawable   after a pass that tags nine-patch images
//  5. xml        preference screens, then generic XML documents
//  6. raw        files recorded with a content digest, never parsed
//
// followed by an optional extension hook that may scan further phases.
// Each phase visits the files directly inside every directory named after
// the phase or qualified from it ("values", "values-fr", "values-land").
//
// Loading is all-or-nothing. A [*ValidationError] raised by any handler is
// returned unchanged; every other failure is returned as a [*LoadError]
// matching [ErrLoadFailed]. The index must not be used after a failed load.
package res
