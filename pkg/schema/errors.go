package schema

import "fmt"

// AccessError reports that the sample query itself failed (bad table, network,
// bad credentials). The upstream message is preserved for the operator.
type AccessError struct {
	Table string
	Err   error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access error for table %q: %v", e.Table, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// NoSampleError reports that the sample query succeeded but returned zero
// rows. From a single response an empty table and an RLS policy blocking
// anonymous reads look identical, so the message names both causes instead of
// guessing.
type NoSampleError struct {
	Table string
}

func (e *NoSampleError) Error() string {
	return fmt.Sprintf(
		"table %q exists but returned no rows. Either the table is empty or row level security (RLS) is blocking anonymous reads. "+
			"Add a read policy for the anon key on table %q (Authentication -> Policies) and try again.",
		e.Table, e.Table,
	)
}
