// Package constants provides shared constants used throughout contactsync:
// provider limits, default selection and marker settings, timeouts and
// file permissions.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the timeout for a single request to a provider API.
	DefaultHTTPTimeout = 30 * time.Second
)

// FilePermissions is the permission of created log files (rw-r--r--).
const FilePermissions = 0644

// Provider limits.
const (
	// DefaultBatchMax is the number of queued operations that triggers a flush.
	DefaultBatchMax = 100

	// MaxPeopleBatchCreate is the People API limit for batchCreateContacts.
	MaxPeopleBatchCreate = 200

	// MaxPeopleBatchGet is the People API limit for people.getBatchGet.
	MaxPeopleBatchGet = 200

	// MaxPeopleBatchDelete is the People API limit for batchDeleteContacts.
	MaxPeopleBatchDelete = 500

	// DefaultMaxContacts caps the number of group members read per user.
	DefaultMaxContacts = 10000

	// DefaultMaxResources caps the directory resource listing.
	DefaultMaxResources = 250

	// DefaultMaxUsers caps the user directory listing.
	DefaultMaxUsers = 500

	// PeoplePageSize is the page size used when listing connections and groups.
	PeoplePageSize = 1000

	// MaxDirectoryPage is the Admin SDK page size limit for users and resources.
	MaxDirectoryPage = 500
)

// Default selection and marker settings.
const (
	DefaultSelectPattern      = "*"
	DefaultUserPattern        = "*"
	DefaultCustomer           = "my_customer"
	DefaultGroupTitle         = "Resources"
	DefaultGroupPropertyName  = "contactsync.group"
	DefaultGroupPropertyValue = "managed"
	DefaultContactPropName    = "contactsync.contact"
	DefaultContactPropValue   = "managed"
	DefaultFamilyName         = "(Resource)"
	DefaultWorkRel            = "work"

	// DefaultMyContactsID is the system id of the provider's "My Contacts" group.
	DefaultMyContactsID = "Contacts"
)

// Source kinds.
const (
	SourceGoogle = "google"
	SourceFile   = "file"
)
