// Package build runs one full generation: discover feature files, parse
// them, build the indices, emit the site and optionally verify its links.
//
// Every run starts from empty indices and a cleared destination; there is
// no incremental regeneration.
package build
