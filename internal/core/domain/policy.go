package domain

// Role is the role of the caller as asserted by the transport layer.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleAccountant Role = "ACCOUNTANT"
	RoleReadOnly   Role = "READONLY"
)

// Operation names a guarded core operation.
type Operation string

const (
	OpAccountManage Operation = "account.manage"
	OpYearManage    Operation = "year.manage"
	OpEntryWrite    Operation = "entry.write"
	OpEntryPost     Operation = "entry.post"
	OpEntryCancel   Operation = "entry.cancel"
	OpLedgerRead    Operation = "ledger.read"
)

// Actor is the authenticated caller of a core operation.
type Actor struct {
	UserID string
	Role   Role
}

// SystemActor is used by seed tooling and other trusted in-process callers.
var SystemActor = Actor{UserID: "system", Role: RoleAdmin}

type policyKey struct {
	role Role
	op   Operation
}

// Policy is an allow-list keyed by (role, operation). Anything absent is denied.
type Policy struct {
	allowed map[policyKey]struct{}
}

// NewPolicy builds a policy from role → operations grants.
func NewPolicy(grants map[Role][]Operation) Policy {
	p := Policy{allowed: make(map[policyKey]struct{})}
	for role, ops := range grants {
		for _, op := range ops {
			p.allowed[policyKey{role, op}] = struct{}{}
		}
	}
	return p
}

// DefaultPolicy grants admins everything, accountants the day-to-day ledger work,
// and read-only users the reports.
func DefaultPolicy() Policy {
	return NewPolicy(map[Role][]Operation{
		RoleAdmin:      {OpAccountManage, OpYearManage, OpEntryWrite, OpEntryPost, OpEntryCancel, OpLedgerRead},
		RoleAccountant: {OpEntryWrite, OpEntryPost, OpEntryCancel, OpLedgerRead},
		RoleReadOnly:   {OpLedgerRead},
	})
}

// Allows reports whether role may perform op.
func (p Policy) Allows(role Role, op Operation) bool {
	_, ok := p.allowed[policyKey{role, op}]
	return ok
}
