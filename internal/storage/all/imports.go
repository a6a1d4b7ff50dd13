// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete backend to run, which
// registers their factories with the storage package. Importing this package
// makes the following storage kinds available at runtime:
//
//   - "postgres" (dsprep/internal/storage/postgres)
//   - "sqlite"   (dsprep/internal/storage/sqlite)
//
// Binaries that want only a subset of backends can import the individual
// backend packages instead.
package all

import (
	_ "dsprep/internal/storage/postgres"
	_ "dsprep/internal/storage/sqlite"
)
