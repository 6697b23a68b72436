// internal/app/system/querycache/keys.go
package querycache

// AdminLeasesKey is shared by every admin.
const AdminLeasesKey = "admin-leases"

func ComplaintsKey(subject string) string  { return subject + "-complaints" }
func WorkOrdersKey(subject string) string  { return subject + "-work-orders" }
func LockersKey(subject string) string     { return subject + "-lockers" }
func ParkingKey(subject string) string     { return subject + "-parking" }
func LeaseStatusKey(subject string) string { return "leaseStatus-" + subject }

// UserKeys lists every per-user key for subject.
func UserKeys(subject string) []string {
	return []string{
		ComplaintsKey(subject),
		WorkOrdersKey(subject),
		LockersKey(subject),
		ParkingKey(subject),
		LeaseStatusKey(subject),
	}
}
