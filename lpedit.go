// Package lpedit provides the editing core for landing-page bundles.
// It ingests an archive of HTML and local assets, derives an editable model of
// sections and text/link/image blocks, and regenerates the HTML with edits
// applied, either as a self-contained preview or as a clean export.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, zip/).
package lpedit
