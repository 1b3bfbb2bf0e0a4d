package onprem

import (
	"github.com/google/uuid"
	"github.com/kong/kongadmin/internal/util"
)

// KongNamespace is the namespace of derived identifiers: the version 3 UUID of
// the URL namespace and "https://konghq.com".
var KongNamespace = uuid.NewMD5(uuid.NameSpaceURL, []byte("https://konghq.com"))

// DeriveID maps a human readable name onto a stable entity identifier. UUIDs
// are returned in canonical lower-case form, anything else becomes the
// version 3 UUID of the name within KongNamespace.
func DeriveID(name string) string {
	if id, ok := util.CanonicalUUID(name); ok {
		return id
	}
	return uuid.NewMD5(KongNamespace, []byte(name)).String()
}
