package solace

// Version of the solace application.
const Version = "0.1.0"
