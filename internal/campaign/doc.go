// Package campaign manages the catalog of campaign database files and the
// open-campaign handle the application works through.
//
// Each campaign is a single SQLite file under a data directory. The file
// name is the campaign name with spaces mapped to underscores plus a .db
// suffix, so the catalog is just the directory listing. Creating a
// campaign opens the file, runs migrations, and stamps an instance
// identifier into the control table.
package campaign
