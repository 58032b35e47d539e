package mysql

// -----------------------------------------------------------------------------
// WRITE QUERIES
// -----------------------------------------------------------------------------

// Note: `text` is reserved; keep it quoted everywhere.
const insertReviewsPrefix = "INSERT INTO reviews\n" +
	"  (id, `text`, review_date, overall_sentiment, rating, aspect_scores, trip_type, country, reviewer, keywords, summary)\nVALUES "

// Re-importing a review replaces its content but keeps its original position.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  `text`            = VALUES(`text`),\n" +
	"  review_date       = VALUES(review_date),\n" +
	"  overall_sentiment = VALUES(overall_sentiment),\n" +
	"  rating            = VALUES(rating),\n" +
	"  aspect_scores     = VALUES(aspect_scores),\n" +
	"  trip_type         = VALUES(trip_type),\n" +
	"  country           = VALUES(country),\n" +
	"  reviewer          = VALUES(reviewer),\n" +
	"  keywords          = VALUES(keywords),\n" +
	"  summary           = VALUES(summary)\n"

const bumpVersionSQL = `UPDATE review_versions SET version = version + 1 WHERE id = 1`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const reviewColumns = "id, `text`, review_date, overall_sentiment, rating, aspect_scores, trip_type, country, reviewer, keywords, summary"

const listReviewsSQL = "SELECT " + reviewColumns + " FROM reviews ORDER BY seq"

const getReviewSQL = "SELECT " + reviewColumns + " FROM reviews WHERE id = ?"

const versionSQL = `SELECT version FROM review_versions WHERE id = 1`
