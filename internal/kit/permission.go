package kit

// Permission is the normalized tri-state user-consent signal.
//
// Native mechanisms disagree about permission semantics: some expose a
// readable tri-state, some an indexed checker, some only "the capability is
// there and active". Every driver maps its own signal onto this one enum;
// nothing outside a driver interprets raw host state.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDefault Permission = "default"
	PermissionDenied  Permission = "denied"
)

func (p Permission) String() string {
	if p == "" {
		return string(PermissionDefault)
	}
	return string(p)
}

// permissionByIndex is the fixed checker ordering shared by every variant
// that reports permission as a small integer.
var permissionByIndex = [...]Permission{PermissionGranted, PermissionDefault, PermissionDenied}

// PermissionFromIndex maps an indexed checker result onto the tri-state.
// Out-of-range values mean the signal is malformed and yield default.
func PermissionFromIndex(i int) Permission {
	if i < 0 || i >= len(permissionByIndex) {
		return PermissionDefault
	}
	return permissionByIndex[i]
}

// PermissionFromPresence maps a binary capability signal onto the
// tri-state: present-and-active is granted, anything else is default.
// Binary variants have no way to express an explicit user "no".
func PermissionFromPresence(active bool) Permission {
	if active {
		return PermissionGranted
	}
	return PermissionDefault
}
