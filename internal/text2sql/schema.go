// Package text2sql turns a normalized natural-language query into executable
// SQL via an external generation model, then validates and runs it.
package text2sql

import "fmt"

// SchemaContext renders the database schema and generation rules fed into the
// prompt. dialect names the SQL flavor the model must emit ("PostgreSQL" or
// "SQLite").
func SchemaContext(dialect string) string {
	return fmt.Sprintf(`# DATABASE SCHEMA

## Table: members
- member_id (TEXT, PRIMARY KEY): Unique identifier
- uri (TEXT, UNIQUE): URI identifier
- first_name (TEXT): Member's first name
- last_name (TEXT): Member's last name
- bio (TEXT): Short bio/description
- title (TEXT): Current or primary title

## Table: experiences
- member_id (TEXT, FOREIGN KEY): References members
- company (TEXT): Company name
- role (TEXT): Job title
- industry (TEXT): Industry classification
- city (TEXT): City of work location
- state (TEXT): State/Province
- country (TEXT): Country
- from_date (DATE): Employment start date
- to_date (DATE): Employment end date (NULL if current)
- is_current (BOOLEAN): Current role indicator
- description (TEXT): Role description

## Table: education
- member_id (TEXT, FOREIGN KEY): References members
- degree (TEXT): Degree type
- institute (TEXT): University/college name
- course (TEXT): Field of study
- from_date (DATE): Start date
- to_date (DATE): End date

## Table: domains
- member_id (TEXT, FOREIGN KEY): References members
- domain_name (TEXT): Domain/area of interest

## Table: content
- member_id (TEXT, FOREIGN KEY): References members
- content_text (TEXT): Member's bio/introduction

# IMPORTANT RULES FOR SQL GENERATION
1. Always use DISTINCT to avoid duplicate members
2. Use LEFT JOIN for experiences/education/domains (some members may not have all)
3. Use exact match for company names: company = '[exact_name]'
4. Use LIKE for text fields with fuzzy values
5. Order results by first_name, last_name
6. Use LIMIT 100 to prevent data overload
7. Write valid %s syntax
`, dialect)
}
