package domain

type Action string

const (
	ActionBookSlot        Action = "book_slot"
	ActionCancelOwn       Action = "cancel_own_booking"
	ActionCancelAny       Action = "cancel_any_booking"
	ActionCheckIn         Action = "check_in"
	ActionCheckOut        Action = "check_out"
	ActionViewAllBookings Action = "view_all_bookings"
	ActionManageSlots     Action = "manage_slots"
	ActionManageRoles     Action = "manage_roles"
	ActionViewRevenue     Action = "view_revenue"
)

var rolePermissions = map[Role]map[Action]struct{}{
	RoleUser: {
		ActionBookSlot:  {},
		ActionCancelOwn: {},
	},
	RoleStaff: {
		ActionCheckIn:         {},
		ActionCheckOut:        {},
		ActionViewAllBookings: {},
	},
	RoleAdmin: {
		ActionCancelAny:       {},
		ActionCheckIn:         {},
		ActionCheckOut:        {},
		ActionViewAllBookings: {},
		ActionManageSlots:     {},
		ActionManageRoles:     {},
		ActionViewRevenue:     {},
	},
}

// Can is the single authorization check consulted by every transition entry
// point. Handlers and services never compare role strings directly.
func Can(role Role, action Action) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[action]
	return ok
}
