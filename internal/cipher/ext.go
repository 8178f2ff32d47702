package cipher

// Ext is the file extension of encrypted export artifacts.
const Ext = ".age"
