package domain

// Protocol is the global kill switch. It is created once by the multisig
// with Locked=true: a fresh deployment is inert until explicitly unlocked.
type Protocol struct {
	Locked bool `json:"locked" bson:"locked"`
}
