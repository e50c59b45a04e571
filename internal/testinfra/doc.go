// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

// Package testinfra provides container fixtures for integration tests.
//
// All files carry the integration build tag, so the package only compiles
// under go test -tags integration.
//
// # MongoDB Container
//
// MongoContainer starts a disposable single-node MongoDB for the mongostore
// conformance run:
//
//	func TestMongoConformance(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//
//	    s, err := mongostore.New(ctx, &config.DatabaseConfig{MongoURI: mongo.URI})
//	    // ...
//	}
//
// # CI Considerations
//
// Tests are skipped when Docker is unavailable. The first run pulls the
// image; later runs use the local cache.
package testinfra
