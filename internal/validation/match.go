package validation

// MatchPasswords applies the password confirmation rule to the error set of the
// confirmation field. It adds TagPasswordMismatch when the values differ and removes
// only that tag when they match. Other tags on the field are left untouched.
func MatchPasswords(password, confirm string, confirmErrs Errors) Errors {
	if password != confirm {
		return confirmErrs.Add(TagPasswordMismatch)
	}
	return confirmErrs.Remove(TagPasswordMismatch)
}
