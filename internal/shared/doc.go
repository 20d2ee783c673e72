// Package shared holds helpers used by more than one package of the banks ETL.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler for asserting on structured log output
//   - HTML fixtures shaped like the archived ranking page
//   - A writer for Currency,Rate exchange rate files
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    page := testutil.RankingPageHTML(testutil.RankingTableHTML("", testutil.DefaultBankRows))
//	    ...
//	    testutil.AssertNoErrors(t, handler)
//	}
package shared
