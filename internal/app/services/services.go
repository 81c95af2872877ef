package services

// Services defined in this package:
// - AreaService: catalog of area definitions read from Hanson files and built-in areas
// - AuditService: audits students against their declared areas and stores the reports
