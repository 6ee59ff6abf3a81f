package redis

import "strconv"

// Redis key naming conventions for chainsign data.
// All keys are prefixed with "chainsign:" to avoid collisions.

const keyPrefix = "chainsign:"

// documentSeqKey is the INCR counter backing document ID allocation.
const documentSeqKey = keyPrefix + "document_seq"

// documentIDsKey is the Sorted Set of all document IDs (score = ID) for
// ordered enumeration.
const documentIDsKey = keyPrefix + "documents"

// documentKey returns the Hash key for a document: chainsign:document:{id}
func documentKey(id uint64) string {
	return keyPrefix + "document:" + strconv.FormatUint(id, 10)
}

// slotsKey returns the Hash key for a document's signing order:
// chainsign:slots:{docID}. Fields are positions, values identities.
func slotsKey(docID uint64) string {
	return keyPrefix + "slots:" + strconv.FormatUint(docID, 10)
}

// recordKey returns the Hash key for one approver record:
// chainsign:record:{docID}:{identity}
func recordKey(docID uint64, identity string) string {
	return keyPrefix + "record:" + strconv.FormatUint(docID, 10) + ":" + identity
}

// recordIDsKey returns the Set tracking a document's record identities.
func recordIDsKey(docID uint64) string {
	return keyPrefix + "records:" + strconv.FormatUint(docID, 10)
}

// eventsKey returns the List key for a document's event log:
// chainsign:events:{docID}. Events are appended oldest first.
func eventsKey(docID uint64) string {
	return keyPrefix + "events:" + strconv.FormatUint(docID, 10)
}
