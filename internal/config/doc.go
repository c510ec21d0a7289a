// Package config loads and validates berth.json, the declarative
// description of virtual hosts, their pattern octuples and their
// directory attachments.
package config
