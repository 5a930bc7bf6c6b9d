// Package services contains the core pipeline logic: ingestion,
// contextual retrieval, the generation cascade, summarisation, topic
// classification, and backend status aggregation.
//
// Services implement the driving ports and depend only on the driven
// ports, never on concrete adapters.
package services
