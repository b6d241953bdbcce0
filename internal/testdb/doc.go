// Package testdb provides helpers for PostgreSQL integration tests.
//
// Tests skip unless DATABASE_URL (or PROMPTGEN_TEST_DB_URL) points at a
// reachable database. Each test runs inside a transaction that is rolled
// back when the test finishes, so tests may run in parallel:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := postgres.NewPostgresHistoryStore(tx, nil)
//	        ...
//	    })
//	}
package testdb
