// Package transkribus is a minimal client for the Transkribus TrpServer
// REST API: session login, collection lookup, document enumeration and
// transcript retrieval. It covers exactly the surface the dumper needs and
// treats the service's wire contract as externally versioned.
package transkribus
