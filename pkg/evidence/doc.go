// Package evidence implements the evidence validator: it hashes the files
// in an entity's evidence directory, infers a document category per file
// from filename keywords, and cross-checks the entity's claims (licenses,
// custodian, settlement bank, signatory authority, registration, and the
// cross-border document set) against what is actually on disk.
//
// Hashing is SHA-256, streamed in fixed-size chunks so arbitrarily large
// scans stay bounded in memory. Only a fixed set of document extensions is
// hashed; everything else in the directory is ignored.
//
// Every call appends one immutable record, tagged with the entity name,
// to a single shared append-only audit log (one JSON document per line),
// whether or not the evidence directory existed. Audit writes are atomic
// per call and their failures are surfaced to the caller even though the
// report itself proceeds.
package evidence
