package svcctl

// Version is the current version of the svcctl tool
const Version = "1.0.0"
